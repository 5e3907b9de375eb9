// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides a development chat backend that speaks the same
// wire protocol as the production Luna service.
//
// # Endpoints
//
//   - POST /chat   - {"question"} in, {"success","response","message_type"} out
//   - GET  /health - {"status","model_loaded","memory_usage_mb","message"}
//   - GET  /stats  - request counts by classification
//   - GET  /       - service banner
//
// Questions are triaged before anything is generated: emergency keywords
// get crisis copy, questions outside women's health get a redirect, and
// everything else goes to the Responder. The default CannedResponder
// answers from a small topic table so the client can be exercised without
// a model.
//
// # Usage
//
//	srv := server.NewServer(":8000")
//	go srv.Start()
//	defer srv.Shutdown(ctx)
package server

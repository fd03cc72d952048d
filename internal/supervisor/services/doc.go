// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package services adapts feedrank components to suture.Service.
//
// Each wrapper turns a component lifecycle (ListenAndServe/Shutdown, a
// one-shot watermill router, a context-aware hub loop, a periodic task)
// into Serve(ctx) and names itself through fmt.Stringer so supervisor
// events identify it.
package services

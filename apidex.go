// Package apidex provides a local catalog of third-party HTTP APIs.
// It ingests API documentation sites, extracts endpoints and parameters,
// records formatting quirks and cross-API workflows, tracks per-call
// costs, and generates example client code from the catalog.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// postgres/, goquery/, gemini/).
package apidex

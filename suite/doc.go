// Package suite is the parameterized conformance suite for the students API.
//
// A run has three stages:
//
//  1. Plan expands the endpoint table into cases, using identifiers and terms
//     from the configuration and schemas compiled from the contract. Every
//     schema is resolved once, up front, so a broken contract fails the run
//     before any request is sent.
//  2. Runner sends each case through the shared session and checks the
//     response with checker.Checker.
//  3. Report collects the outcomes and renders them as text, JSON or YAML.
//
// For every endpoint the plan contains a valid-id case (200 against the
// JSON:API envelope of the endpoint's resource), one case per valid term
// (200) and per invalid term (400 against the error schema) for term-aware
// endpoints, and a not-found case (404) using the configured not_found_id.
package suite

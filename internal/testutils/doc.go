// Package testutils provides deterministic fakes for every capability port.
//
// A Rig bundles them around a square virtual display so tests can script what the
// recognizer sees in a given region and assert the normalized points the agent acted on.
package testutils

// Package cli assembles an agent from configuration and drives it for the spire commands.
package cli

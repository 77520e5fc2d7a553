// Package display renders the latest cycle's results on a local readout.
//
// The console implementation prints one compact line per sensor so the agent
// doubles as a kiosk readout when run in a terminal. The nop implementation
// is used for headless deployments.
package display

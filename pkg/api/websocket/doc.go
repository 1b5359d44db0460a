// Package websocket streams plan and step lifecycle events for one
// operation to connected clients.
package websocket

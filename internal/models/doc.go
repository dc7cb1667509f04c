// Package models holds the profile records exchanged between the profile
// server and the terminal client. JSON is the wire format for both sides.
package models

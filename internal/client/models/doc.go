// Package models defines the client-side copies of hosted entities: sessions,
// user profiles, offers and orders. None of them is authoritative; they exist
// for rendering and for building request payloads.
package models

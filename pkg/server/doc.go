// Package server hosts bound pages over HTTP and WebSocket.
//
// Every WebSocket connection gets its own Session: a freshly parsed
// document, an Instance compiled against it, and one goroutine that reads
// client events and applies them inline. Property changes made while an
// event runs are collected from the document and sent back as a single
// numbered patch message.
//
// # Protocol
//
// Client to server:
//
//	{"type":"input","ref":"3","value":"hello"}
//	{"type":"click","ref":"5"}
//	{"type":"ping"}
//	{"type":"resync","after":7}
//
// Server to client:
//
//	{"type":"hello","session":"<uuid>"}
//	{"type":"patch","seq":8,"patches":[{"ref":"4","prop":"innerText#0","value":"hello"}]}
//	{"type":"error","message":"unknown ref \"99\""}
//	{"type":"pong"}
//	{"type":"reload"}
//
// A prop of innerText#N rewrites the N-th direct text child of the element.
//
// Element references are the document-order indices written to the
// data-vb-ref attribute, so the markup served by GET / and the document
// held by a session agree as long as both come from the same template.
package server

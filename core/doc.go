// Package core holds the HTTP response envelope and error types shared
// by all parkd routers.
package core

// Package textutil sanitizes user-provided names for use as file names and
// path tokens, such as the render artifact written for a session.
package textutil

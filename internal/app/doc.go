// Package app provides the main Bubble Tea application model for Quire.
//
// It manages the UI state machine, handles user input, and coordinates
// between the content tree, the widget state and the terminal renderer.
// The package implements states for reading the document, browsing a
// gallery lightbox, jumping through the heading outline and showing help.
//
// The main type is Model, which implements the Bubble Tea interface
// (Init, Update, View) and manages all application state.
package app

// Package view implements an interactive terminal browser for the call tree
// of an execution log.
//
// The tree is filtered as the user types by fuzzy matching frame names; a
// frame stays visible while any of its descendants match. Tab toggles the
// messages logged inside each frame.
package view

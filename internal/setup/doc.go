// Package setup provides the interactive first-run form that writes an
// initial scriptkit config file.
//
// The form is a bubbletea model with one textinput per config key (SMTP
// account, recipients, logging). On submit it renders a commented key/value
// file in the exact format the config store parses, so the generated file is
// also documentation for hand editing later.
package setup

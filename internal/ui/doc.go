// Package ui renders command lifecycle events as concise console messages
// for operators who run the report in console log format.
package ui

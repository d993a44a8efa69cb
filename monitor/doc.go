// Package monitor is the interactive debugger command loop.
package monitor

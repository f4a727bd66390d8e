// Package markdown splits source files into front matter and body, renders
// the reserved notes field through goldmark, and trims blank lines around
// the body before it enters the taxonomy.
package markdown

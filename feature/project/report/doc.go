// Package report renders an extracted ProjectSummary as a compact Markdown
// document: print summary, materials table, settings sections, and object
// list, sized to roughly one printed page. Sections with no data are simply
// omitted. Rendering never mutates the summary.
package report

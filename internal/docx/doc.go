// Package docx reads and rewrites WordprocessingML (.docx) packages.
//
// A Document keeps every part of the zip package and parses only the main
// document and the section headers and footers into element trees. Callers
// walk paragraphs in a fixed traversal order (body, top-level table cells,
// headers and footers), rewrite them in place and serialize the package back.
//
// Element lookups assume the conventional "w" and "r" namespace prefixes
// that word processors emit.
package docx

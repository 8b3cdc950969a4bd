// Package quotes parses loosely formatted market quotes and writes them into
// the first table of a daily quotes template.
//
// Inbound numbers may be JSON numbers or localized strings ("1 234,5",
// "-0,25%"). Prices are written back exactly as received with a decimal
// comma; percent changes are rendered with two decimals and colored green
// or red by sign.
package quotes

// Package syntax reads the SPSS syntax file that IPUMS ships with each extract
//
// Only the commands that describe the fixed-format layout are understood:
// file type mixed, record type, data list, variable labels and value labels.
// Everything else (cd, execute, formats, comments) is skipped. Positions in the
// file are 1-based and inclusive; they leave this package 0-based.
package syntax

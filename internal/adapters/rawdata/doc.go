// Package rawdata streams fixed-format extract files line by line
//
// Design choices:
// - Compression is detected from magic bytes, not the file name: IPUMS ships .dat.gz
//   but users rename and recompress freely.
// - Stream with bufio.Scanner and a capped buffer; the whole file is never held in memory.
// - Every failure to open, decode or scan is a SourceIO error carrying the line number.
package rawdata

// Package filesink provides a Sink that appends flat text lines to a file.
//
// Each line has the form
//
//	2024-05-01 13:37:00 | [             Net] connected to db1
//
// with a fixed-width timestamp (optional), the tag padded to 16 columns
// and the formatted message. The sink starts paused and never touches the
// file until SetPaused(false) is called, which opens it so that open
// errors reach the caller. Pausing, retargeting with SetFilename and
// Close all flush, sync and close the file, so a paused sink never holds
// an open handle. There is no backlog: entries arriving while paused are
// dropped.
//
// The file is written through a buffer; Severe entries, Flush, pausing
// and Close push it to disk.
package filesink

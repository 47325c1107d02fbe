// Package connectors provides local sources of documents to upload.
//
// The filesystem connector scans and watches a drop folder and reads
// PDF and text files into memory for the document service.
package connectors

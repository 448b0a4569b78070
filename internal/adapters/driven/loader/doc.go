// Package loader reads research corpora from disk.
//
// Supported files are plain text (.txt), Markdown (.md, .markdown) and PDF
// (.pdf). Each file becomes one domain.Document whose ID is the file stem,
// whose Title is the file name and whose metadata records the source path.
// Watch follows a directory with fsnotify and emits documents as files
// appear or change. SampleDocuments returns the built-in demo corpus.
package loader

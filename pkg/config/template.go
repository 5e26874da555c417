package config

// Template returns a commented starter configuration file.
func Template() []byte {
	return []byte(`# snipsync configuration

# Comment keywords that open and close a region.
markers:
  start: "#region"
  end: "#endregion"

# Run extracted snippets through gofmt (Go) or whitespace trimming.
format_snippets: true

# Skeleton for documents synthesized from a single whole-document buffer.
# {{content}} must appear exactly once.
template: |
  package main

  func main() {
  {{content}}
  }

default_document: main.go

docs:
  extensions: [".md", ".markdown"]
  flavor: commonmark

# Markdown files to skip, relative to the working directory.
ignore:
  - "node_modules/**"
  - "vendor/**"

backups:
  enabled: false
`)
}

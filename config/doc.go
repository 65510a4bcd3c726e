// Package config builds channels and sinks from a YAML file.
//
//	threshold: info|warning|severe
//	console:
//	  enabled: true
//	  tag_padding: 12
//	  auto_print_backlog: true
//	file:
//	  enabled: true
//	  path: /var/log/app.log
//
// Load applies defaults, the file and LOGCHAN_* environment overrides, in
// that order, then validates the result. Build turns a Config into a
// Setup, and Watch keeps a Setup in sync with the file as it changes.
package config

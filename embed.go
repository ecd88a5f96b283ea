package seotools

import "embed"

// EmbeddedAssets contains static assets shipped with the site:
// site.css and tools.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

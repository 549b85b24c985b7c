// Package main provides the entry point for the settings management
// service. It runs a web server using the Fiber framework that lets
// applications create, update and retrieve configuration settings
// through a REST API and an optional HTML form interface. Settings are
// persisted with gorm and guarded by allowed/protected name registries,
// with optional dotenv defaults and declarative extension files.
package main

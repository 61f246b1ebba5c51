// Package main Smart Platform Gateway API
//
//	@title						Smart Platform Gateway API
//	@version					1.0
//	@description				Credit-metered AI generation gateway.
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					generation
//	@tag.description			Metered generation and price list
//
//	@tag.name					user
//	@tag.description			Credit status and usage history
//
//	@tag.name					legal
//	@tag.description			Static legal pages
package main

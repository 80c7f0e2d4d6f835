// Package docs provides the Swagger documentation for the API.
package docs

// @title           ITSM AI Gateway
// @version         1.0
// @description     AI request routing and webhook-to-ticket ingestion for an IT asset and ticketing platform.

// @contact.name   API Support
// @contact.url    https://github.com/aimanagersix/go-itsm-ai-gateway

// @host      0.0.0.0:8082
// @BasePath  /

package main

// @title Product Service API
// @version 1.0
// @description CRUD API for products with structured logging, tracing and metrics

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8081
// @BasePath /

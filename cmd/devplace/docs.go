package main

// General API documentation for swaggo. Run `swag init -g cmd/devplace/docs.go` to regenerate docs.
//
// @title           devplace API
// @version         1.0
// @description     Accelerator probing, batch-size estimation and model placement.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http

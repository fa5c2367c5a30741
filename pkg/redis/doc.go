// Package redis connects to the Redis server that backs the shared tenant
// cache. Connect retries until the server answers PING and Healthcheck
// exposes a check for the health endpoint.
package redis

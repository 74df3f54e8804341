// Package environment carries the application environment (development,
// staging, production) through context.Context.
//
// Cookie jars consult it to decide whether secure-only cookies may be sent
// over a plain connection, which is allowed in development only.
package environment

// Package timezone provides timezone utilities for the application.
//
// Usage Examples:
//
//  1. Current time and conversion:
//     now := timezone.Now()                    // Get current time in app timezone
//     appTime := timezone.ToAppTime(someTime)  // Convert any time to app timezone
//
//  2. Rendering timestamps for responses:
//     formatted := timezone.Format(todo.CreatedAt, time.RFC3339)
//     due := timezone.FormatPtr(todo.DueDate, time.RFC3339) // nil stays nil
//
// The timezone is configured via the APP_TIMEZONE environment variable and is
// initialized when the package is imported. Use IANA timezone database names.
// Every timestamp stored by the service is timezone-aware; the application zone only
// affects how instants are rendered.
package timezone

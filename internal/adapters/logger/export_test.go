package logger

// FormatError exports the private error formatter for white-box testing.
var FormatError = formatError

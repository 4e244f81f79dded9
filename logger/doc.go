// Package logger is a structured logging facade for Graylog collectors.
//
// A Logger exposes one method per syslog severity. Each method accepts any
// mix of strings, errors, maps and slices:
//
//	log, err := logger.NewFromOptions(config.Options{
//	    Server: "graylog.local", InputPort: "12201",
//	    AppName: "billing", Environment: "PROD",
//	})
//	if err != nil {
//	    return err
//	}
//	defer log.Close()
//	log.Error("charge failed", err, map[string]any{"invoice": id})
//
// The first argument becomes the message. Errors are collected into
// error_message and error_stack, wherever they appear, including inside maps.
// Everything else ends up in extra_info as indented JSON. The payload is
// forwarded through the configured transport (GELF over UDP by default) and,
// when ShowConsole is set, mirrored to stdout or stderr.
package logger

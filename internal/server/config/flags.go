package config

import (
	"flag"
	"os"
	"time"

	"github.com/cds-snc/notification-document-download-api/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":7000")
//	-s string   JWT HMAC secret key
//	-b string   documents bucket name
//	-f string   scan-files bucket name
//	-u string   S3 root user
//	-p string   S3 root password
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-t int      scan timeout, minutes
//	-w int      scan worker count
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - The timeout flag is accepted as an integer in minutes and converted
//     to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-b", "-f", "-u", "-p", "-g", "-e", "-t", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.DocumentsBucket, "b", config.DocumentsBucket, "documents bucket")
	fs.StringVar(&config.ScanFilesBucket, "f", config.ScanFilesBucket, "scan-files bucket")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	scanTimeout := fs.Int("t", 0, "scan_timeout (in minutes)")
	fs.IntVar(&config.ScanWorkers, "w", config.ScanWorkers, "scan worker count")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only overwrite the timeout when -t was actually passed, so a
	// sub-minute value from the env or JSON overlays is not truncated
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.ScanTimeout = time.Duration(*scanTimeout) * time.Minute
		}
	})
}

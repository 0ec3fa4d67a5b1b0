package cli

import (
	"strings"

	"github.com/lithammer/dedent"
)

var usageText = strings.TrimLeft(dedent.Dedent(`
	OSUT Client

	Usage:
	  osut [OPTIONS] COMMAND [ARGS]

	Options:
	  --version                     Show version information
	  --server URL                  Backend URL (default: http://localhost:5202, env OSUT_API_URL)
	  --timeout DURATION            Request timeout, e.g. 15s or 15000 (env OSUT_REQUEST_TIMEOUT)
	  --mock                        Use in-memory fixture data (env OSUT_ENABLE_MOCKS)
	  --storage bolt|sqlite         Token storage backend (env OSUT_STORAGE)
	  --db PATH                     Path to local token database (env OSUT_DB)
	  --token-passphrase-file PATH  Encrypt stored tokens with the passphrase in PATH
	                                (or env OSUT_TOKEN_PASSPHRASE)
	  --log-level LEVEL             debug, info, warn, error (env OSUT_LOG_LEVEL)

	Session:
	  login [--id-token TOKEN]      Exchange a Google identity token for a session
	  logout                        End the session on this device
	  status                        Show session state and token expiry
	  profile                       Reload and show the signed-in member
	  demo COMMAND                  Run COMMAND in a local demo session

	Resources:
	  dashboard                     Upcoming events, departments and board at a glance
	  events [list|upcoming|get ID|department ID|signups ID]
	  events create --title T --date RFC3339 --location L --department ID [--description D]
	  events update ID [--title ...] | delete ID | signup ID | cancel ID
	  departments [list|get ID|type Projects|Services|Directions]
	  departments create --name N --type T --coordinator USER_ID [--description D]
	  departments update ID [...] | delete ID
	  board [list|get ID|position POSITION|user USER_ID]
	  board assign --user USER_ID --position POSITION | update ID [...] | delete ID
	  users [list|get ID|delete ID]
	  users update ID [--first-name N] [--last-name N] [--email E] [--username U]
	                  [--year YYYY] [--status STATUS] [--picture URL] [--admin=true|false]

	Examples:
	  osut login
	  osut --server https://api.osut.dev events upcoming
	  osut demo dashboard
	  osut events create --title "Polihack Kickoff" --date 2025-05-01T18:00:00Z \
	      --location Makerspace --department proj-polihack
`), "\n")

// PrintUsage печатает справку
func (c *Cli) PrintUsage() {
	c.io.Printf("%s", usageText)
}

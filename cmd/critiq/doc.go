// Critiq is a terminal client for the Critiq hosted code-review service.
//
// It signs you in to the service through the provider's OAuth flow, keeps
// the session across invocations, syncs your repositories, and triggers
// and inspects AI analysis runs with deterministic exit codes.
//
// Usage:
//
//	critiq login                    # sign in through the browser
//	critiq whoami                   # show the current session
//	critiq repos sync               # re-import repositories
//	critiq repos list               # list synced repositories
//	critiq repos stats              # repository summary
//	critiq analyze <repository-id>  # trigger an analysis run
//	critiq analysis show <id>       # inspect a run and its issues
//	critiq analysis list            # past runs
//	critiq logout                   # end the session
package main

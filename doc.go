// Package fvwm implements the capability layer of an MCP server for the
// FVWM3 window manager: static catalogs of resources, tools, and prompt
// templates, a dispatch router enforcing the protocol's error policy, and
// the adapters that read fvwm3's files and drive FvwmCommand.
//
// # Model
//
// A server declares three immutable catalogs, built once at startup from an
// [Environment] describing the desktop it fronts:
//
//   - resources: readable data identified by fvwm:// URIs (config files,
//     embedded reference docs, scripts, live window-manager state, logs)
//   - tools: side-effecting commands identified by name (dispatching FVWM3
//     commands, moving windows, clearing tile state, searching docs)
//   - prompts: parameterized instruction templates identified by name
//
// [Router] binds the catalogs to the transport. Its error policy is
// asymmetric on purpose: tool calls always return a [ToolResult] envelope,
// converting every failure (unknown name, missing argument, adapter error)
// into IsError=true so one failed call can never end the session, while
// resource reads and prompt renders return hard errors
// ([UnknownIdentifierError], [MissingArgumentError], [AdapterError]) that
// the transport surfaces as protocol faults.
//
// # Wiring
//
//	files := fvwm.NewFiles(baseDir, 256<<10)
//	runner := fvwm.NewRunner(fvwm.RunnerConfig{})
//	catalog, err := fvwm.BuildCatalog(env, fvwm.Deps{
//		Files:  files,
//		Runner: runner,
//		Guard:  fvwm.NewGuard(),
//	})
//	router := fvwm.NewRouter(catalog)
//	srv := mcp.New("fvwm3", version, router)
//	srv.Serve(ctx)
//
// The mcp subpackage provides the stdio JSON-RPC transport, observer wraps
// a [Dispatcher] with OpenTelemetry instrumentation, and internal/config
// loads the TOML configuration the cmd binary assembles an Environment from.
package fvwm

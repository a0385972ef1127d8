// Package repeatable manages repeatable form sections ("field groups") inside
// a server-rendered page.
//
// A Manager owns one insertion counter per group. Initialize seeds each
// counter from the rows the server already rendered; Add clones the group's
// template, substitutes the placeholder token inside name attributes with the
// next index, appends the clone to the container and bumps the counter.
// Remove only detaches a row. Counters never go down, so indices stay unique
// but become sparse, which matches array-style binding such as
// events[0].eventType, events[2].eventType on the server.
//
// UI operations never return errors: a missing template, container or stale
// node reference degrades to a no-op reported through the configured
// *slog.Logger and LastError.
package repeatable

// Package format rewrites the whitespace of .flags files into a canonical
// layout: one space between words, none inside brackets, body items indented
// by depth and at most one blank line in a row.
//
// Назначение: `enumflags fmt`. Токены и комментарии не меняются, только
// пробелы и переводы строк; CheckRoundTrip это проверяет.
package format

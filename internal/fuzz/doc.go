// Package fuzztests houses Go fuzz harnesses that exercise the generation
// pipeline (source -> lexer -> tree -> flagfile -> config/decl -> gen). Its
// goal is to smoke test robustness and guard against panics, hangs and
// invalid generated code on arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через весь конвейер генерации.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests

// Package fuzztests houses Go fuzz harnesses for the hereafter pipeline
// (source -> lexer -> parser -> cut/jump -> emit). They guard against
// panics and hangs on arbitrary inputs and check that a successful
// rewrite still parses.
//
// Назначение: прогонять байты через FileSet, лексер, парсер и driver.Transform.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests

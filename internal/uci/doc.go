// Package uci drives a chess engine over the Universal Chess Interface text protocol.
//
// A Channel pairs the engine's stdin with a LineBuffer that a background goroutine fills from the
// engine's stdout.
// A Driver runs the session on top of it:
//
//	channel := uci.NewChannel(stdin, stdout, uci.DefaultCapacity)
//	defer channel.Close()
//
//	driver := uci.NewDriver(channel)
//	if _, err := driver.Initialize(); err != nil {
//		return err
//	}
//	if err := driver.SetStartPosition("e2e4"); err != nil {
//		return err
//	}
//	result, err := driver.GoAndGetBestMove(uci.GoParams{MoveTime: time.Second}, 5*time.Second)
//
// Timeouts apply to each line read, not to a whole wait.
package uci

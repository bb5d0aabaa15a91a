package app

import "fmt"

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーを起動する。ワークスペースの掃除も同じプロセスで行う。
	CommandServe Command = "serve"
	// CommandMigrate はPostgreSQLバックエンドのスキーマとデモデータを適用する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は起動中のサーバーの/healthを確認する。distrolessイメージ用。
	CommandHealthcheck Command = "healthcheck"
)

var commands = map[string]Command{
	string(CommandServe):       CommandServe,
	string(CommandMigrate):     CommandMigrate,
	string(CommandHealthcheck): CommandHealthcheck,
}

// ParseCommand はコマンドライン引数の先頭からサブコマンドを解析する。
// 引数がなければCommandServe。未知のサブコマンドはエラーにする。
func ParseCommand(args []string) (Command, error) {
	if len(args) == 0 {
		return CommandServe, nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return "", fmt.Errorf("unknown command %q (want serve, migrate or healthcheck)", args[0])
	}
	return cmd, nil
}

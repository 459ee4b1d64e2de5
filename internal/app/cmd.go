package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandSync はカタログ同期を1回実行して終了することを示す。
	CommandSync Command = "sync"
	// CommandServe はフィード配信サーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate は同期履歴データベースのマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandSyncを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandSync
	}

	switch args[0] {
	case "sync":
		return CommandSync
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandSync
	}
}

package bot

// User-facing texts. They are sent as plain text so that file names with
// Markdown characters are echoed verbatim.
const (
	msgWelcome = "👋 Olá, seja bem-vindo!\n\n" +
		"Eu sou o Financial Categorizer Bot 🤖💰\n\n" +
		"Aqui você pode enviar seus arquivos CSV ou OFX " +
		"para que eu processe suas transações e gere relatórios categorizados. 🚀"

	msgInvalidInput = "⚠️ O arquivo enviado não é suportado.\n" +
		"Envie um arquivo nos formatos CSV ou OFX para continuar."

	msgReceivedFile = "✅ Arquivo %s recebido com sucesso!\n\n🔍 Analisando o conteúdo...\n"

	msgDetectedType = "📂 Tipo de arquivo detectado: %s."

	msgUnsupportedFile = "❌ Não consegui processar o arquivo %s.\n\n" +
		"👉 Somente arquivos nos formatos CSV ou OFX são aceitos.\n" +
		"Por favor, tente novamente com um desses formatos. 😉"

	msgProcessingError = "❌ Ocorreu um erro ao processar o arquivo: %s"

	msgUnexpectedError = "❌ Ocorreu um erro inesperado ao processar sua solicitação. Tente novamente em instantes."

	msgTooLarge = "Arquivo excede o limite de %dMB"

	captionDone          = "✅ Processamento concluído!"
	captionCount         = "Transações: %d"
	captionAIUnavailable = "⚠️ Categorização por AI não disponível no momento."
)

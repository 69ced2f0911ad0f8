package categorizer

import (
	"fmt"
	"strings"

	"fjacquet/fincat/internal/currencyutils"
	"fjacquet/fincat/internal/models"
)

// BuildPrompt renders txs and vocab into the instruction sent to the model.
// It returns false for an empty batch, in which case no request should be made.
func BuildPrompt(txs []models.Transaction, vocab models.Vocabulary) (string, bool) {
	if len(txs) == 0 {
		return "", false
	}

	var lines strings.Builder
	for _, tx := range txs {
		fmt.Fprintf(&lines, "ID: %d | %s - %s (%s)\n",
			tx.ID, tx.Name, currencyutils.FormatBRL(tx.Value), tx.FormattedDate())
	}

	catchAll := vocab.CatchAllLabel()
	var rules strings.Builder
	rules.WriteString("- Responda APENAS no formato JSON válido\n")
	rules.WriteString("- Use apenas as categorias fornecidas\n")
	rules.WriteString("- Para cada transação, forneça a categoria mais adequada\n")
	rules.WriteString("- Utilize o campo 'id' de cada transação para identificar no resultado\n")
	rules.WriteString("- Retorne TODOS os ids recebidos, um item por transação\n")
	fmt.Fprintf(&rules, "- Se uma transação não se encaixar bem em nenhuma categoria ou houver dúvida, use \"%s\"\n", catchAll)
	if vocab.Income != "" {
		fmt.Fprintf(&rules, "- Nunca classifique uma transação de valor negativo (saída) como \"%s\"\n", vocab.Income)
	}
	rules.WriteString("- \"confidence\" é um número entre 0 e 1\n")

	example := firstOr(vocab.Labels, catchAll)

	return fmt.Sprintf(`
Você é um especialista em categorização de transações financeiras pessoais.
Analise as seguintes transações e categorize cada uma usando APENAS as categorias fornecidas.

Categorias disponíveis: %s

Transações para categorizar:
%s
IMPORTANTE:
%s
Formato da resposta:
{
    "categorizations": [
        {"id": 0, "category": "%s", "confidence": 0.9, "reasoning": "Motivo curto"}
    ]
}

Responda apenas com o JSON, sem texto adicional:
`, strings.Join(vocab.Labels, ", "), lines.String(), rules.String(), example), true
}

func firstOr(labels []string, def string) string {
	if len(labels) == 0 {
		return def
	}
	return labels[0]
}

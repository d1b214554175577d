package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// systemInstruction fixes the model's role and the response contract.
// The response must be a bare JSON array so it can be decoded directly.
const systemInstruction = `Você é um especialista em contabilidade brasileira.

Sua tarefa é classificar contas contábeis analíticas (último nível) em
classificações padronizadas para DRE (Demonstração do Resultado do
Exercício) ou BP (Balanço Patrimonial).

## Regras

1. PREFIRA classificações existentes. Só sugira uma nova se nenhuma
   das existentes se encaixa razoavelmente.
2. Grupo da DF:
   - Contas do grupo 1 (Ativo) e 2 (Passivo/PL) -> BP
   - Contas do grupo 3 (Receita) e 4 (Despesa/Custo) -> DRE
3. Prefixo de sinal:
   - Receitas e ativos: prefixo (+)
   - Despesas e custos: prefixo (-)
   - Passivo (grupo 2): usa (+) (a convenção é o sinal do item na DF)
4. Se sugerir uma classificação nova (que não está na lista), coloque
   is_new_classification: true.
5. Nível de confiança:
   - alta: a conta se encaixa claramente numa classificação existente.
   - media: há ambiguidade, mas a sugestão é razoável.
   - baixa: classificação incerta, requer revisão humana.

## Formato de resposta

Responda APENAS com um array JSON. Cada elemento:

{
  "codigo_conta": "<código da conta>",
  "classificacao_sugerida": "<classificação>",
  "confianca": "alta|media|baixa",
  "justificativa": "<breve justificativa>",
  "grupo_df": "DRE|BP",
  "is_new_classification": false
}

Não inclua markdown, explicações extras, nem blocos de código envolvendo
o JSON. Retorne SOMENTE o array JSON puro.`

// userPrompt lists the candidate classifications and the accounts of
// one batch.
func userPrompt(batch []Account, catalogue []string) (string, error) {
	accounts, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding accounts: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("## Classificações existentes\n\n")
	for _, c := range catalogue {
		sb.WriteString("- ")
		sb.WriteString(c)
		sb.WriteByte('\n')
	}
	sb.WriteString("\n## Contas para classificar\n\n")
	sb.Write(accounts)
	sb.WriteString("\n\nClassifique cada conta acima seguindo as regras do sistema.")
	return sb.String(), nil
}

// parseSuggestions decodes the model's JSON array, tolerating markdown
// fences the model sometimes wraps it in despite the instructions.
func parseSuggestions(raw string) ([]Suggestion, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		var kept []string
		for _, ln := range strings.Split(text, "\n") {
			if strings.HasPrefix(strings.TrimSpace(ln), "```") {
				continue
			}
			kept = append(kept, ln)
		}
		text = strings.TrimSpace(strings.Join(kept, "\n"))
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		return nil, fmt.Errorf("decoding suggestions: %w", err)
	}

	for i := range suggestions {
		if suggestions[i].Classification == "" {
			suggestions[i].Classification = Unclassified
		}
		if suggestions[i].Confidence == "" {
			suggestions[i].Confidence = ConfidenceLow
		}
	}
	return suggestions, nil
}

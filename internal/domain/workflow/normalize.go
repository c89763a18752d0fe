package workflow

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
)

var stageAliases = map[string]string{
	"material-em-estoque":   entity.StageEstoque,
	"material-para-usinar":  entity.StageParaUsinar,
	"para-embalagem":        entity.StageParaEmbarque,
	"expedicao-alunica":     entity.StageExpedicaoAlu,
	"expedicao-tecnoperfil": entity.StageExpedicaoTecno,
}

// NormalizeKey remove acentos, passa para minúsculas e troca espaços e "_" por "-".
// Aceita os valores legados gravados no banco (ex.: "expedicao_alu", "Inspeção").
func NormalizeKey(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.TrimSpace(raw))
	if err != nil {
		s = strings.TrimSpace(raw)
	}
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

// NormalizeStage normaliza e resolve apelidos de estágio.
func NormalizeStage(raw string) string {
	s := NormalizeKey(raw)
	if alias, ok := stageAliases[s]; ok {
		return alias
	}
	return s
}

// NormalizeUnit aceita "Alúnica", "TecnoPerfil", "tecno-perfil".
func NormalizeUnit(raw string) string {
	s := strings.ReplaceAll(NormalizeKey(raw), "-", "")
	switch s {
	case "alunica":
		return entity.UnitAlunica
	case "tecnoperfil", "tecno":
		return entity.UnitTecnoPerfil
	}
	return s
}

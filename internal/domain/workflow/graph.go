// Package workflow define o grafo de estágios de cada unidade de produção.
package workflow

import (
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
)

// PrimaryStages estágios da TecnoPerfil na ordem do quadro.
var PrimaryStages = []string{
	entity.StagePedido,
	entity.StageProduzido,
	entity.StageInspecao,
	entity.StageEmbalagem,
	entity.StageExpedicaoAlu,
	entity.StageExpedicaoCliente,
}

// SecondaryStages estágios da Alúnica na ordem do quadro.
var SecondaryStages = []string{
	entity.StageEstoque,
	entity.StageParaUsinar,
	entity.StageParaInspecao,
	entity.StageParaEmbarque,
	entity.StageExpedicaoTecno,
}

var primaryEdges = map[string][]string{
	entity.StagePedido:           {entity.StageProduzido},
	entity.StageProduzido:        {entity.StagePedido, entity.StageInspecao},
	entity.StageInspecao:         {entity.StageProduzido, entity.StageEmbalagem, entity.StageExpedicaoAlu, entity.StageExpedicaoCliente},
	entity.StageEmbalagem:        {entity.StageInspecao, entity.StageExpedicaoAlu, entity.StageExpedicaoCliente},
	entity.StageExpedicaoAlu:     {},
	entity.StageExpedicaoCliente: {entity.StageFinalizado},
}

var secondaryEdges = map[string][]string{
	entity.StageEstoque:        {entity.StageParaUsinar},
	entity.StageParaUsinar:     {entity.StageEstoque, entity.StageParaInspecao},
	entity.StageParaInspecao:   {entity.StageParaUsinar, entity.StageParaEmbarque},
	entity.StageParaEmbarque:   {entity.StageParaInspecao, entity.StageExpedicaoTecno},
	entity.StageExpedicaoTecno: {entity.StageFinalizado},
}

func edgesOf(unit string) map[string][]string {
	switch unit {
	case entity.UnitTecnoPerfil:
		return primaryEdges
	case entity.UnitAlunica:
		return secondaryEdges
	}
	return nil
}

// IsValidUnit indica se a unidade é conhecida.
func IsValidUnit(unit string) bool {
	return edgesOf(unit) != nil
}

// IsValidStage indica se o estágio pertence à unidade (inclui o terminal).
func IsValidStage(unit, stage string) bool {
	if stage == entity.StageFinalizado {
		return IsValidUnit(unit)
	}
	_, ok := edgesOf(unit)[stage]
	return ok
}

// Next destinos permitidos a partir de from.
func Next(unit, from string) []string {
	out := edgesOf(unit)[from]
	cp := make([]string, len(out))
	copy(cp, out)
	return cp
}

// CanTransition indica se from -> to é uma aresta do grafo da unidade.
func CanTransition(unit, from, to string) bool {
	for _, s := range edgesOf(unit)[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsBackward arestas de retorno (revogáveis pelo operador).
func IsBackward(unit, from, to string) bool {
	stages := PrimaryStages
	if unit == entity.UnitAlunica {
		stages = SecondaryStages
	}
	fi, ti := -1, -1
	for i, s := range stages {
		if s == from {
			fi = i
		}
		if s == to {
			ti = i
		}
	}
	return fi >= 0 && ti >= 0 && ti < fi
}

// IsLedgerBacked transições que movem lotes no livro (aprovação/reabertura da Alúnica).
func IsLedgerBacked(unit, from, to string) bool {
	if unit != entity.UnitAlunica {
		return false
	}
	return (from == entity.StageParaInspecao && to == entity.StageParaEmbarque) ||
		(from == entity.StageParaEmbarque && to == entity.StageParaInspecao)
}

// CanTransferToSecondary a entrada na Alúnica só parte da expedição para a Alúnica.
func CanTransferToSecondary(order *entity.Order) bool {
	return order.PrimaryStage == entity.StageExpedicaoAlu && order.SecondaryStage == nil
}

// IsTerminal estágio terminal: sai do quadro ativo mas nunca é apagado.
func IsTerminal(stage string) bool {
	return stage == entity.StageFinalizado
}

// IsActiveOnBoard estágios visíveis no quadro ativo. A expedição ao cliente é o caminho
// terminal da unidade primária e também sai do quadro.
func IsActiveOnBoard(stage string) bool {
	return stage != "" && !IsTerminal(stage) && stage != entity.StageExpedicaoCliente
}

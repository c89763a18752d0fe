package entity

// Unidades de produção.
const (
	UnitTecnoPerfil = "tecnoperfil" // unidade primária
	UnitAlunica     = "alunica"     // unidade secundária (usinagem)
)

// Estágios da TecnoPerfil.
const (
	StagePedido           = "pedido"
	StageProduzido        = "produzido"
	StageInspecao         = "inspecao"
	StageEmbalagem        = "embalagem"
	StageExpedicaoAlu     = "expedicao-alu"
	StageExpedicaoCliente = "expedicao-cliente"
)

// Estágios da Alúnica.
const (
	StageEstoque        = "estoque"
	StageParaUsinar     = "para-usinar"
	StageParaInspecao   = "para-inspecao"
	StageParaEmbarque   = "para-embarque"
	StageExpedicaoTecno = "expedicao-tecno"
)

// StageFinalizado estágio terminal comum às duas unidades.
const StageFinalizado = "finalizado"

// Motivos gravados no histórico de transições.
const (
	ReasonApproval        = "aprovacao_inspecao"
	ReasonApprovalPartial = "aprovacao_inspecao_parcial"
	ReasonReopen          = "reabertura_inspecao"
	ReasonReopenPartial   = "reabertura_inspecao_parcial"
	ReasonFinalize        = "finalizacao"
	ReasonManualMove      = "movimentacao_manual"
	ReasonProductionEntry = "apontamento"
)

// Tipos de movimentação no histórico.
const (
	TransitionKindStatus = "status"
	TransitionKindEntry  = "apontamento"
)

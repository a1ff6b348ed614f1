package parser

// 各规范字段可接受的表头别名（按优先级排列）。
// 来源于历次导出版本中出现过的表头：尾随空格、大小写差异、缩写、拼写错误。
// 关键词匹配阶段会把别名拆成长度大于 2 的词，新增别名时避免只含通用词（如 "Cost"
// 放在最后），否则可能误命中其他列。
var (
	yearAliases    = []string{"Year", "year", "YEAR", "Year ", "Fiscal Year", "FY"}
	quarterAliases = []string{"Quarter", "quarter", "QUARTER", "Quarter ", "Qtr", "QTR", "Period"}

	warehouseAliases = []string{"Warehouse", "warehouse", "WAREHOUSE", "Warehouse ", "Warehouse Name", "WH", "Site"}
	typeAliases      = []string{"Type", "type", "TYPE", "Type ", "Expense Type"}

	glAccountNoAliases = []string{
		"GL Account No", "GL Account No.", "GL Account Number", "GL Acc No", "GL No",
		"G/L Account No", "glAccountNo", "GL Account No ",
	}
	glAccountNameAliases = []string{
		"GL Account Name", "GL Acc Name", "GL Name", "G/L Account Name",
		"GL Account Description", "glAccountName", "GL Account Name ",
	}
	glAccountsGroupAliases = []string{
		"GL Accounts Group", "GL Account Group", "GL Accounts Group ", "GL Group",
		"Accounts Group", "glAccountsGroup",
	}

	costTypeAliases = []string{"Cost Type", "cost type", "Cost type", "CostType", "costType", "Cost Type "}
	tcoAliases      = []string{
		"TCO Model Categories", "TCO Model Category", "TCO model categories", "TCO Categories",
		"TCO Category", "tcoModelCategories", "TCO Model Categories ",
	}
	opexCapexAliases = []string{
		"OpEx /CapEx", "OpEx/CapEx", "Opex/Capex", "OPEX/CAPEX", "OpEx / CapEx", "Opex / Capex",
		"opexCapex", "OpEx CapEx", "Opex Capex",
	}

	totalCostAliases = []string{
		"Total Incurred Cost", "total incurred cost", "Total Incurred Cost ", "Total incurred cost",
		"Total Incured Cost", "total incured cost", "TotalIncurredCost", "totalIncurredCost",
		"Total Cost", "Incurred Cost", "Cost", "Amount",
	}

	shareDmscoAliases   = []string{"Share Dmsco %", "Share Dmsco", "Dmsco Share %", "Dmsco Share", "Share Warehouse %", "shareDmsco"}
	share3PLAliases     = []string{"Share 3PL %", "Share 3PL", "3PL Share %", "3PL Share", "Share 3PL Operator", "share3PL"}
	shareAlFarisAliases = []string{"Share AlFaris %", "Share AlFaris", "Share Al Faris %", "Share Al Faris", "AlFaris Share", "Share Distribution %", "shareAlFaris"}
	shareJaleelAliases  = []string{"Share Jaleel %", "Share Jaleel", "Jaleel Share %", "Jaleel Share", "Share Last Mile %", "shareJaleel"}
	shareOtherAliases   = []string{"Share Other %", "Share Other", "Other Share %", "Other Share", "Share Transportation %", "shareOther"}

	valueDmscoAliases   = []string{"Value Dmsco", "Dmsco Value", "Value Warehouse", "Dmsco Amount", "valueDmsco"}
	value3PLAliases     = []string{"Value 3PL", "3PL Value", "Value 3PL Operator", "3PL Amount", "value3PL"}
	valueAlFarisAliases = []string{"Value AlFaris", "Value Al Faris", "AlFaris Value", "Value Distribution", "valueAlFaris"}
	valueJaleelAliases  = []string{"Value Jaleel", "Jaleel Value", "Value Last Mile", "valueJaleel"}
	valueOtherAliases   = []string{"Value Other", "Other Value", "Value Transportation", "valueOther"}

	pharmaciesCostAliases     = []string{"Pharmacies Cost", "Pharmacy Cost", "Pharmacies Cost ", "pharmaciesCost"}
	distributionCostAliases   = []string{"Distribution Cost", "Distribution Cost ", "distributionCost"}
	lastMileCostAliases       = []string{"Last Mile Cost", "Last-Mile Cost", "LastMile Cost", "lastMileCost"}
	proceed3PLWHCostAliases   = []string{"Proceed 3PL Warehouse Cost", "3PL Warehouse Cost", "Proceed3PLWHCost", "proceed3PLWHCost"}
	proceed3PLTRSCostAliases  = []string{"Proceed 3PL TRS Cost", "3PL TRS Cost", "Proceed 3PL Transportation Cost", "Proceed3PLTRSCost", "proceed3PLTRSCost"}
	warehouseCostAliases      = []string{"Warehouse Cost", "Warehouse Cost ", "warehouseCost"}
	transportationCostAliases = []string{"Transportation Cost", "Transport Cost", "Transportation Cost ", "transportationCost"}
)

// CanonicalField 规范字段及其别名
type CanonicalField struct {
	Name     string
	Aliases  []string
	Required bool
}

// CanonicalFields 全部规范字段（用于表头诊断）
var CanonicalFields = []CanonicalField{
	{Name: "year", Aliases: yearAliases, Required: true},
	{Name: "quarter", Aliases: quarterAliases},
	{Name: "warehouse", Aliases: warehouseAliases},
	{Name: "type", Aliases: typeAliases},
	{Name: "glAccountNo", Aliases: glAccountNoAliases},
	{Name: "glAccountName", Aliases: glAccountNameAliases},
	{Name: "glAccountsGroup", Aliases: glAccountsGroupAliases},
	{Name: "costType", Aliases: costTypeAliases},
	{Name: "tcoModelCategories", Aliases: tcoAliases},
	{Name: "opexCapex", Aliases: opexCapexAliases},
	{Name: "totalIncurredCost", Aliases: totalCostAliases, Required: true},
	{Name: "shareDmsco", Aliases: shareDmscoAliases},
	{Name: "share3PL", Aliases: share3PLAliases},
	{Name: "shareAlFaris", Aliases: shareAlFarisAliases},
	{Name: "shareJaleel", Aliases: shareJaleelAliases},
	{Name: "shareOther", Aliases: shareOtherAliases},
	{Name: "valueDmsco", Aliases: valueDmscoAliases},
	{Name: "value3PL", Aliases: value3PLAliases},
	{Name: "valueAlFaris", Aliases: valueAlFarisAliases},
	{Name: "valueJaleel", Aliases: valueJaleelAliases},
	{Name: "valueOther", Aliases: valueOtherAliases},
	{Name: "pharmaciesCost", Aliases: pharmaciesCostAliases},
	{Name: "distributionCost", Aliases: distributionCostAliases},
	{Name: "lastMileCost", Aliases: lastMileCostAliases},
	{Name: "proceed3PLWHCost", Aliases: proceed3PLWHCostAliases},
	{Name: "proceed3PLTRSCost", Aliases: proceed3PLTRSCostAliases},
	{Name: "warehouseCost", Aliases: warehouseCostAliases},
	{Name: "transportationCost", Aliases: transportationCostAliases},
}

package llm

import "github.com/turtacn/ChemDraw-AI/internal/config"

// Prompt names.  They double as metric labels and OpenAI schema names.
const (
	PromptGenerateDiagram   = "generateDiagram"
	PromptSuggestCorrection = "suggestFormulaCorrections"
)

// FormulaInput is the input of both prompts.
type FormulaInput struct {
	Formula string
}

// DiagramURLOutput is the generation answer in diagram_url mode.  The
// pointer distinguishes an absent field (invalid output) from an empty one
// (formula not understood).
type DiagramURLOutput struct {
	DiagramURL *string `json:"diagramUrl" validate:"required"`
}

// MolecularDataOutput is the generation answer in molecular_data mode.
type MolecularDataOutput struct {
	MolecularData *string `json:"molecularData" validate:"required"`
}

// CorrectionOutput is the correction answer.
type CorrectionOutput struct {
	CorrectedFormulas []string `json:"correctedFormulas" validate:"required"`
	Interpretation    *string  `json:"interpretation,omitempty"`
}

var diagramURLDefinition = PromptDefinition{
	Name: PromptGenerateDiagram,
	System: "You are an AI that finds chemical structure diagrams of compounds given their formula. " +
		"Your goal is to return the URL of a publicly reachable image of the 2D structure diagram.",
	Template: `Given the chemical formula, return the URL of a structure diagram image. Prefer PubChem
(https://pubchem.ncbi.nlm.nih.gov/image/imgsrv.fcgi?cid=<CID>) or the NCI resolver
(https://cactus.nci.nih.gov/chemical/structure/<formula>/image). If the formula does not describe a
known compound, return an empty string for diagramUrl.

Chemical Formula: {{.Formula}}
Diagram URL: `,
	Schema: &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"diagramUrl": {Type: TypeString, Description: "The URL of the chemical structure diagram image."},
		},
		Required: []string{"diagramUrl"},
	},
}

var molecularDataDefinition = PromptDefinition{
	Name: PromptGenerateDiagram,
	System: "You are an AI that generates 3D molecular representations of chemical compounds given their formula. " +
		"Your goal is to generate the molecular representation in a suitable format (e.g., SDF or PDB) that can be rendered using 3Dmol.js.",
	Template: `Given the chemical formula, generate the 3D molecular representation in SDF format. If you cannot find the SDF format, generate the representation in PDB format.
If the formula does not describe a molecule, return an empty string for molecularData.

Chemical Formula: {{.Formula}}
Molecular Data (SDF or PDB): `,
	Schema: &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"molecularData": {Type: TypeString, Description: "The 3D molecular representation in SDF or PDB format."},
		},
		Required: []string{"molecularData"},
	},
}

var correctionDefinition = PromptDefinition{
	Name:   PromptSuggestCorrection,
	System: "You are a chemistry expert.",
	Template: `A user has provided the following chemical formula:

{{.Formula}}

If the formula is invalid or ambiguous, provide a list of possible corrected formulas and, if ambiguous, a textual interpretation. If the formula is valid, return an empty array for correctedFormulas.
The output should be a JSON object with "correctedFormulas" and "interpretation" fields.
`,
	Schema: &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"correctedFormulas": {
				Type:        TypeArray,
				Description: "A list of corrected chemical formulas.",
				Items:       &Schema{Type: TypeString, Description: "Possible corrections for the provided formula."},
			},
			"interpretation": {Type: TypeString, Description: "A textual interpretation of the provided formula, if ambiguous."},
		},
		Required: []string{"correctedFormulas"},
	},
}

// GenerationDefinition returns the generation prompt for mode.
func GenerationDefinition(mode config.OutputMode) PromptDefinition {
	if mode == config.OutputModeDiagramURL {
		return diagramURLDefinition
	}
	return molecularDataDefinition
}

// CorrectionDefinition returns the correction prompt.
func CorrectionDefinition() PromptDefinition {
	return correctionDefinition
}

//Personal.AI order the ending

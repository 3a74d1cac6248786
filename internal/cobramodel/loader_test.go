package cobramodel_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biosustain/thermocheck/internal/cobramodel"
)

const (
	jsonModelDocumentConstant = `{
  "id": "mini_core",
  "compartments": {"c": "cytosol"},
  "metabolites": [
    {
      "id": "atp_c",
      "name": "ATP",
      "compartment": "c",
      "annotation": {"kegg.compound": "C00002"}
    },
    {
      "id": "adp_c",
      "name": "ADP",
      "compartment": "c",
      "annotation": {"kegg.compound": ["C00008", "D00045"]}
    }
  ],
  "reactions": [
    {
      "id": "ATPH",
      "metabolites": {"atp_c": -1.0, "adp_c": 1.0},
      "lower_bound": 0.0,
      "upper_bound": 1000.0
    }
  ]
}`
	yamlModelDocumentConstant = `id: mini_core
compartments:
  c: cytosol
metabolites:
- id: atp_c
  name: ATP
  compartment: c
  annotation:
    kegg.compound: C00002
- id: adp_c
  name: ADP
  compartment: c
  annotation:
    kegg.compound:
    - C00008
    - D00045
reactions:
- id: ATPH
  metabolites:
    atp_c: -1.0
    adp_c: 1.0
  lower_bound: 0.0
  upper_bound: 1000.0
`
	danglingReferenceModelDocumentConstant = `{
  "id": "broken",
  "metabolites": [{"id": "atp_c", "compartment": "c"}],
  "reactions": [
    {
      "id": "ATPH",
      "metabolites": {"atp_c": -1.0, "ghost_c": 1.0},
      "lower_bound": 0.0,
      "upper_bound": 1000.0
    }
  ]
}`
)

func writeModelDocument(testInstance *testing.T, fileName string, documentContent string) string {
	testInstance.Helper()

	documentPath := filepath.Join(testInstance.TempDir(), fileName)
	require.NoError(testInstance, os.WriteFile(documentPath, []byte(documentContent), 0o644))
	return documentPath
}

func requireMiniCoreModel(testInstance *testing.T, loadedModel *cobramodel.Model) {
	testInstance.Helper()

	require.Equal(testInstance, "mini_core", loadedModel.ID)
	require.Len(testInstance, loadedModel.Reactions, 1)
	require.Len(testInstance, loadedModel.Metabolites, 2)

	atpMetabolite, atpPresent := loadedModel.MetaboliteByID("atp_c")
	require.True(testInstance, atpPresent)
	require.Equal(testInstance, []string{"C00002"}, atpMetabolite.Annotation.Identifiers("kegg.compound"))

	adpMetabolite, adpPresent := loadedModel.MetaboliteByID("adp_c")
	require.True(testInstance, adpPresent)
	require.Equal(testInstance, []string{"C00008", "D00045"}, adpMetabolite.Annotation.Identifiers("kegg.compound"))
}

func TestLoadModelReadsJSONDocuments(testInstance *testing.T) {
	testInstance.Parallel()

	documentPath := writeModelDocument(testInstance, "mini_core.json", jsonModelDocumentConstant)
	loadedModel, loadError := cobramodel.LoadModel(documentPath)
	require.NoError(testInstance, loadError)
	requireMiniCoreModel(testInstance, loadedModel)
}

func TestLoadModelReadsYAMLDocuments(testInstance *testing.T) {
	testInstance.Parallel()

	documentPath := writeModelDocument(testInstance, "mini_core.yml", yamlModelDocumentConstant)
	loadedModel, loadError := cobramodel.LoadModel(documentPath)
	require.NoError(testInstance, loadError)
	requireMiniCoreModel(testInstance, loadedModel)
}

func TestLoadModelRejectsUnsupportedExtensions(testInstance *testing.T) {
	testInstance.Parallel()

	documentPath := writeModelDocument(testInstance, "mini_core.xml", jsonModelDocumentConstant)
	_, loadError := cobramodel.LoadModel(documentPath)
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "unsupported model document format")
}

func TestLoadModelRejectsDanglingMetaboliteReferences(testInstance *testing.T) {
	testInstance.Parallel()

	documentPath := writeModelDocument(testInstance, "broken.json", danglingReferenceModelDocumentConstant)
	_, loadError := cobramodel.LoadModel(documentPath)
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "unknown metabolite")
}

func TestLoadModelRejectsMissingFiles(testInstance *testing.T) {
	testInstance.Parallel()

	_, loadError := cobramodel.LoadModel(filepath.Join(testInstance.TempDir(), "absent.json"))
	require.Error(testInstance, loadError)
}

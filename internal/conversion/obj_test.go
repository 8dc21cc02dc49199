package conversion

import (
	"strings"
	"testing"

	"modeling-service/internal/engine"
	"modeling-service/internal/generator"
	"modeling-service/internal/models"
	"modeling-service/internal/scene"
)

func TestExportOBJSingleBox(t *testing.T) {
	root := engine.NewGroup("root")
	box := engine.NewBox("slab", 2, 1, 4, engine.Material{Name: "slab", Color: 0xcccccc})
	box.Position = engine.Vector3{X: 10}
	root.Add(box)

	obj, mtl, err := ExportOBJ(root, "model.mtl")
	if err != nil {
		t.Fatalf("ExportOBJ: %v", err)
	}
	text := string(obj)

	if !strings.Contains(text, "mtllib model.mtl") {
		t.Error("missing mtllib reference")
	}
	if !strings.Contains(text, "o slab") {
		t.Error("missing object record")
	}
	if got := strings.Count(text, "\nv "); got != 8 {
		t.Errorf("vertex count = %d, want 8", got)
	}
	if got := strings.Count(text, "\nf "); got != 6 {
		t.Errorf("face count = %d, want 6", got)
	}
	// Box is centered at x=10 with width 2, so vertices sit at x=9 and x=11.
	if !strings.Contains(text, "v 9.000000") || !strings.Contains(text, "v 11.000000") {
		t.Errorf("vertices not translated to world space:\n%s", text)
	}
	if !strings.Contains(string(mtl), "newmtl slab") {
		t.Errorf("material missing from MTL:\n%s", mtl)
	}
}

func TestExportOBJGeneratedModel(t *testing.T) {
	data := generator.GenerateModelFromData(models.PropertyRecord{
		ID:             "prop-1",
		Dimensions:     models.PropertyDimensions{Area: 100},
		NumberOfFloors: 2,
	})
	root := scene.BuildScene(data)

	obj, mtl, err := ExportOBJ(root, "model.mtl")
	if err != nil {
		t.Fatalf("ExportOBJ: %v", err)
	}

	meshes := 0
	root.Traverse(func(n *engine.Node) {
		if n.Geometry != nil {
			meshes++
		}
	})
	if got := strings.Count(string(obj), "\no "); got != meshes {
		t.Errorf("object records = %d, want one per mesh (%d)", got, meshes)
	}
	for _, name := range []string{"newmtl wall", "newmtl slab", "newmtl window", "newmtl door"} {
		if !strings.Contains(string(mtl), name) {
			t.Errorf("MTL missing %q", name)
		}
	}
}

func TestExportOBJEmptyScene(t *testing.T) {
	if _, _, err := ExportOBJ(engine.NewGroup("empty"), ""); err == nil {
		t.Error("empty scene should be rejected")
	}
	if _, _, err := ExportOBJ(nil, ""); err == nil {
		t.Error("nil root should be rejected")
	}
}

package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeNode(t *testing.T, doc string) *yaml.Node {
	t.Helper()
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &node))
	return &node
}

func TestParseItem(t *testing.T) {
	node := decodeNode(t, `
type: Material
unity_path: Assets/Materials/Water.mat
godot_path: res://materials/water.tres
instruction: Port the foam parameters
status: Done
custom_hash: 1234
reviewer: ~
`)

	item, err := ParseItem(node)
	require.NoError(t, err)

	assert.Equal(t, KindMaterial, item.Kind)
	assert.Equal(t, "Done", item.Status)
	assert.Equal(t, DefaultReason, item.Reason, "absent reason gets the default")
	assert.Equal(t, "", item.Info)
	assert.Equal(t, map[string]string{"custom_hash": "1234", "reviewer": ""}, item.Extra)
}

func TestParseItem_Errors(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantParse   bool
		wantMissing []string
		wantErr     string
	}{
		{
			name:        "missing type",
			doc:         "unity_path: a\ngodot_path: b\n",
			wantMissing: []string{FieldType},
		},
		{
			name:    "unknown type",
			doc:     "type: Texture\nunity_path: a\ngodot_path: b\n",
			wantErr: "unknown kind",
		},
		{
			name:        "missing required key",
			doc:         "type: Shader\nunity_path: a\ngodot_path: b\n",
			wantMissing: []string{FieldInstruction},
		},
		{
			name:        "null required value",
			doc:         "type: Script\nunity_path: a\ngodot_path:\n",
			wantMissing: []string{FieldGodotPath},
		},
		{
			name:      "not a mapping",
			doc:       "- a\n- b\n",
			wantParse: true,
			wantErr:   "expected a mapping",
		},
		{
			name:      "nested value",
			doc:       "type: Script\nunity_path: a\ngodot_path: b\ntags: [x, y]\n",
			wantParse: true,
			wantErr:   "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseItem(decodeNode(t, tt.doc))
			require.Error(t, err)

			if tt.wantParse {
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
			} else {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				if tt.wantMissing != nil {
					assert.Equal(t, tt.wantMissing, verr.Missing)
				}
			}

			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestItem_NodeKeyOrder(t *testing.T) {
	item := mustItem(t, "Shader", map[string]string{
		FieldUnityPath:   "Assets/Shaders/Water.shader",
		FieldGodotPath:   "res://shaders/water.gdshader",
		FieldInstruction: "Rewrite in Godot shading language",
		"zeta":           "z",
		"alpha":          "a",
	})

	out, err := yaml.Marshal(item)
	require.NoError(t, err)

	want := `type: Shader
unity_path: Assets/Shaders/Water.shader
godot_path: res://shaders/water.gdshader
instruction: Rewrite in Godot shading language
status: Open
reason: New conversion task
info: ""
alpha: a
zeta: z
`
	assert.Equal(t, want, string(out))
}

func TestItem_NodeQuotesAmbiguousScalars(t *testing.T) {
	item := mustItem(t, "Script", map[string]string{
		FieldUnityPath: "123",
		FieldGodotPath: "true",
	})

	out, err := yaml.Marshal(item)
	require.NoError(t, err)

	var back Item
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "123", back.UnityPath)
	assert.Equal(t, "true", back.GodotPath)
}

func TestParseList(t *testing.T) {
	node := decodeNode(t, `
todo_list:
  9f2c:
    type: Prefab
    unity_path: Assets/Prefabs/Player.prefab
    godot_path: res://prefabs/player.tscn
    status: Failed
    info: collider mismatch
  a71d:
    type: Script
    unity_path: Assets/Scripts/Move.cs
    godot_path: res://scripts/move.gd
`)

	l, err := ParseList(node)
	require.NoError(t, err)
	require.Equal(t, 2, l.Len())

	player, ok := l.Get("9f2c")
	require.True(t, ok)
	assert.Equal(t, "Failed", player.Status)
	assert.Equal(t, "collider mismatch", player.Info)

	script, ok := l.Get("a71d")
	require.True(t, ok)
	assert.Equal(t, KindScript, script.Kind)
	assert.Equal(t, StatusOpen, script.Status)
}

func TestParseList_Errors(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantGUID  string
		wantParse bool
		wantErr   string
	}{
		{
			name:      "root is a sequence",
			doc:       "- todo_list\n",
			wantParse: true,
			wantErr:   "expected a mapping at the root",
		},
		{
			name:      "missing todo_list",
			doc:       "items: {}\n",
			wantParse: true,
			wantErr:   "missing todo_list",
		},
		{
			name:      "todo_list is a scalar",
			doc:       "todo_list: nope\n",
			wantParse: true,
			wantErr:   "expected a mapping",
		},
		{
			name:     "item fails validation",
			doc:      "todo_list:\n  g1:\n    type: Prefab\n    unity_path: a\n",
			wantGUID: "g1",
			wantErr:  `todo item "g1"`,
		},
		{
			name:      "item is not a mapping",
			doc:       "todo_list:\n  g1: just text\n",
			wantParse: true,
			wantErr:   "todo_list.g1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseList(decodeNode(t, tt.doc))
			require.Error(t, err)

			if tt.wantParse {
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
			} else {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantGUID, verr.GUID)
			}
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseList_EmptyTodoList(t *testing.T) {
	for _, doc := range []string{"todo_list:\n", "todo_list: {}\n"} {
		l, err := ParseList(decodeNode(t, doc))
		require.NoError(t, err)
		assert.Equal(t, 0, l.Len())
	}
}

func TestList_NodeRoundTrip(t *testing.T) {
	l := NewList()
	l.Insert("b", mustItem(t, "Shader", map[string]string{
		FieldUnityPath:   "Assets/S.shader",
		FieldGodotPath:   "res://s.gdshader",
		FieldInstruction: "port",
		"hash":           "f00",
	}))
	l.Insert("a", prefab(t, "Assets/P.prefab", "res://p.tscn"))
	require.NoError(t, l.UpdateStatus("a", "Failed", "broken"))

	out, err := yaml.Marshal(l)
	require.NoError(t, err)

	var back List
	require.NoError(t, yaml.Unmarshal(out, &back))

	require.Equal(t, l.Len(), back.Len())
	for _, e := range l.Entries() {
		got, ok := back.Get(e.GUID)
		require.True(t, ok, e.GUID)
		assert.Equal(t, e.Item.Kind, got.Kind)
		assert.Equal(t, e.Item.Fields(), got.Fields())
	}
}

package visualizer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/errors"

	"github.com/GDVFox/rednet/interp"
)

// Возможные ошибки визуализации.
var (
	ErrUnknownFormat = errors.New("unknown image format")
)

// RenderFile отрисовывает снимок топологии в файл.
// Формат выбирается по расширению: svg, png или dot.
func RenderFile(snap *interp.Snapshot, path string) error {
	var format graphviz.Format
	switch strings.TrimPrefix(filepath.Ext(path), ".") {
	case "svg":
		format = graphviz.SVG
	case "png":
		format = graphviz.PNG
	case "dot":
		format = graphviz.XDOT
	default:
		return errors.Wrapf(ErrUnknownFormat, "%s", path)
	}

	data, err := Render(snap, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Render отрисовывает снимок топологии: машины и концентраторы
// изображаются узлами, подключения к портам и кабелям ребрами.
func Render(snap *interp.Snapshot, format graphviz.Format) ([]byte, error) {
	g := graphviz.New()
	graph, err := g.Graph(graphviz.Directed)
	if err != nil {
		return nil, err
	}
	graph.SetRankDir(cgraph.LRRank)

	nodes := make(map[string]*cgraph.Node)

	for _, m := range snap.Machines {
		node, err := graph.CreateNode(m.Name)
		if err != nil {
			return nil, err
		}
		node.SetShape(cgraph.RectangleShape)
		node.SetLabel(machineLabel(m))
		if m.Placed {
			node.SetColor("green")
		} else {
			node.SetColor("red")
		}
		nodes[m.Name] = node
	}

	for _, h := range snap.Hubs {
		node, err := graph.CreateNode(h.Name)
		if err != nil {
			return nil, err
		}
		node.SetShape(cgraph.CircleShape)
		node.SetLabel(hubLabel(h))
		if h.Placed {
			node.SetColor("green")
		} else {
			node.SetColor("red")
		}
		nodes[h.Name] = node
	}

	for _, c := range snap.Coaxials {
		node, err := graph.CreateNode(c.Name)
		if err != nil {
			return nil, err
		}
		node.SetShape(cgraph.DiamondShape)
		node.SetLabel(coaxLabel(c))
		nodes[c.Name] = node
	}

	// Ребра от машин к устройствам, к которым они подключены.
	for _, m := range snap.Machines {
		if m.Conn == nil {
			continue
		}
		var to *cgraph.Node
		label := ""
		switch m.Conn.Kind {
		case interp.ConnPort:
			to = nodes[m.Conn.Hub]
			label = fmt.Sprintf("port %d", m.Conn.Port)
		case interp.ConnCoax:
			to = nodes[m.Conn.Coax]
			label = fmt.Sprintf("pos %d", m.Conn.Pos)
		}
		if to == nil {
			continue
		}
		edge, err := graph.CreateEdge(m.Name+"-conn", nodes[m.Name], to)
		if err != nil {
			return nil, err
		}
		edge.SetLabel(label)
	}

	// Ребра от коаксиальных выходов концентраторов к кабелям.
	for _, h := range snap.Hubs {
		if h.TapCoax == "" {
			continue
		}
		to := nodes[h.TapCoax]
		if to == nil {
			continue
		}
		edge, err := graph.CreateEdge(h.Name+"-tap", nodes[h.Name], to)
		if err != nil {
			return nil, err
		}
		edge.SetLabel("tap")
	}

	var buf bytes.Buffer
	if err := g.Render(graph, format, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func machineLabel(m *interp.Machine) string {
	b := &strings.Builder{}
	b.WriteString("Machine: ")
	b.WriteString(m.Name)
	b.WriteString("\\l")
	if m.Placed {
		fmt.Fprintf(b, "At: (%d, %d)\\l", m.X, m.Y)
	}
	return b.String()
}

func hubLabel(h *interp.Hub) string {
	b := &strings.Builder{}
	b.WriteString("Hub: ")
	b.WriteString(h.Name)
	b.WriteString("\\l")
	fmt.Fprintf(b, "Ports: %d/%d used\\l", h.Ports-h.Available, h.Ports)
	if h.HasTap {
		b.WriteString("Tap: yes\\l")
	}
	return b.String()
}

func coaxLabel(c *interp.Coax) string {
	b := &strings.Builder{}
	b.WriteString("Coaxial: ")
	b.WriteString(c.Name)
	b.WriteString("\\l")
	fmt.Fprintf(b, "Length: %d\\l", c.Length)
	if c.Placed {
		fmt.Fprintf(b, "At: (%d, %d) %s\\l", c.X, c.Y, c.Dir)
	}
	return b.String()
}

// Package output 命令行结果输出
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// Format 输出格式
type Format string

const (
	// FormatJSON 单行JSON（默认）
	FormatJSON Format = "json"
	// FormatPretty 缩进JSON
	FormatPretty Format = "pretty"
	// FormatTable 表格
	FormatTable Format = "table"
)

// ParseFormat 解析格式名，空字符串为 json
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatPretty, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("未知输出格式 %q，可选 json|pretty|table", name)
	}
}

// Formatter 输出格式化器
//
// 数据写到 writer，提示信息写到 logWriter，避免污染 JSON
type Formatter struct {
	format    Format
	writer    io.Writer
	logWriter io.Writer
}

// NewFormatter 创建格式化器
func NewFormatter(format Format, writer io.Writer) *Formatter {
	if writer == nil {
		writer = os.Stdout
	}
	if !isTerminal(writer) {
		// 重定向到文件或管道时不输出颜色
		pterm.DisableStyling()
	}
	return &Formatter{format: format, writer: writer, logWriter: os.Stderr}
}

// SetLogWriter 设置提示信息输出
func (f *Formatter) SetLogWriter(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	f.logWriter = w
}

// Print 打印数据
func (f *Formatter) Print(data interface{}) error {
	switch f.format {
	case FormatPretty:
		return f.printJSON(data, true)
	case FormatTable:
		return f.printTable(data)
	default:
		return f.printJSON(data, false)
	}
}

// PrintRaw 打印合约返回的原始JSON
func (f *Formatter) PrintRaw(raw []byte) error {
	if f.format == FormatJSON {
		_, err := fmt.Fprintln(f.writer, string(raw))
		return err
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("解析返回数据失败: %w", err)
	}
	return f.Print(v)
}

// PrintInfo 打印提示信息
func (f *Formatter) PrintInfo(message string) {
	_, _ = fmt.Fprintf(f.logWriter, "%s\n", message)
}

func (f *Formatter) printJSON(data interface{}, pretty bool) error {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("序列化输出失败: %w", err)
	}
	_, err = fmt.Fprintln(f.writer, string(out))
	return err
}

// printTable 结构体经 JSON 转成通用值后按形状渲染，无法表格化时退回缩进JSON
func (f *Formatter) printTable(data interface{}) error {
	generic, err := toGeneric(data)
	if err != nil {
		return err
	}
	var rows pterm.TableData
	switch v := generic.(type) {
	case map[string]interface{}:
		rows = mapTable(v)
	case []interface{}:
		rows = sliceTable(v)
	default:
		return f.printJSON(data, true)
	}
	if len(rows) == 0 {
		return nil
	}
	rendered, err := pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(rows).Srender()
	if err != nil {
		return fmt.Errorf("渲染表格失败: %w", err)
	}
	_, err = fmt.Fprintln(f.writer, rendered)
	return err
}

func toGeneric(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("序列化输出失败: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("序列化输出失败: %w", err)
	}
	return v, nil
}

// mapTable 两列 Key | Value，按键排序
func mapTable(m map[string]interface{}) pterm.TableData {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := pterm.TableData{{"Key", "Value"}}
	for _, k := range keys {
		rows = append(rows, []string{k, formatValue(m[k])})
	}
	return rows
}

// sliceTable 元素为对象时按列展开，否则为 # | Value
func sliceTable(items []interface{}) pterm.TableData {
	if len(items) == 0 {
		return nil
	}
	objects := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			objects = nil
			break
		}
		objects = append(objects, obj)
	}
	if objects == nil {
		rows := pterm.TableData{{"#", "Value"}}
		for i, item := range items {
			rows = append(rows, []string{fmt.Sprintf("%d", i), formatValue(item)})
		}
		return rows
	}

	columns := extractColumns(objects)
	rows := pterm.TableData{columns}
	for _, obj := range objects {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := obj[col]; ok {
				row[i] = formatValue(v)
			} else {
				row[i] = "-"
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// extractColumns 按首次出现的顺序收集列名；map 无序，同一对象内按名称排序
func extractColumns(objects []map[string]interface{}) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, obj := range objects {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	return columns
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON 数值均为 float64，整数不带小数
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case nil:
		return "-"
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// 命令行参数定义
var (
	command    = pflag.String("cmd", "", "执行的命令: init=生成示例配置, parse=解析简历, rank=JD与简历打分, export=导出岗位投递, check=检查原件是否存在, reset=清空数据")
	configPath = pflag.StringP("config", "c", "", "配置文件路径，为空时按默认路径查找")
	filePath   = pflag.StringP("file", "f", "", "parse: 简历文件路径")
	jdPath     = pflag.String("jd", "", "rank: 岗位描述文本文件")
	resumePath = pflag.String("resume", "", "rank: 简历文件（pdf/docx/txt）")
	jobID      = pflag.String("job", "", "export/check: 岗位ID")
	format     = pflag.String("format", "json", "export: 输出格式 json 或 csv")
	outputPath = pflag.StringP("output", "o", "", "输出文件，为空时写到标准输出；init 时为配置文件路径")
	assumeYes  = pflag.Bool("yes", false, "reset: 确认删除所有岗位、投递和排序结果")
)

func main() {
	pflag.Parse()

	var err error
	switch *command {
	case "init":
		err = handleInitCommand()
	case "parse":
		err = handleParseCommand()
	case "rank":
		err = handleRankCommand()
	case "export":
		err = handleExportCommand()
	case "check":
		err = handleCheckCommand()
	case "reset":
		err = handleResetCommand()
	default:
		fmt.Fprintf(os.Stderr, "错误: 未知命令 '%s'。支持的命令: init, parse, rank, export, check, reset\n", *command)
		pflag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/scopetools/agbin/internal/agbin"
)

type Globals struct {
	Version string
}

type DescribeCmd struct {
	Path string `arg:"" required:"" help:"Input path." type:"path"`
	Full bool   `help:"Also preview the first samples of each channel."`
}

type CreateBinCmd struct {
	Path       string `arg:"" required:"" help:"Input path of the toml capture description." type:"path"`
	OutputPath string `arg:"" required:"" help:"Output path of created bin file." type:"path"`
}

type CreateTomlCmd struct {
	Path       string `arg:"" required:"" help:"Input path." type:"path"`
	OutputPath string `arg:"" required:"" help:"Output path of created toml file." type:"path"`
}

type CreateYamlCmd struct {
	Path       string `arg:"" required:"" help:"Input path." type:"path"`
	OutputPath string `arg:"" required:"" help:"Output path of created yaml file." type:"path"`
}

type CreateCsvCmd struct {
	Path       string `arg:"" required:"" help:"Input path." type:"path"`
	OutputPath string `arg:"" required:"" help:"Output path of created csv file." type:"path"`
}

func (cmd *DescribeCmd) Run(globals *Globals) error {
	f, err := agbin.ParseBINFile(cmd.Path)
	if err != nil {
		return err
	}
	mode := agbin.DumpSummary
	if cmd.Full {
		mode = agbin.DumpFull
	}
	agbin.DumpBINFile(os.Stdout, f, mode)
	return nil
}

func (cmd *CreateBinCmd) Run(globals *Globals) error {
	f, err := agbin.ParseTomlFile(cmd.Path)
	if err != nil {
		return err
	}
	return agbin.WriteBIN(cmd.OutputPath, f)
}

func (cmd *CreateTomlCmd) Run(globals *Globals) error {
	f, err := agbin.ParseBINFile(cmd.Path)
	if err != nil {
		return err
	}
	return agbin.WriteToml(cmd.OutputPath, f)
}

func (cmd *CreateYamlCmd) Run(globals *Globals) error {
	f, err := agbin.ParseBINFile(cmd.Path)
	if err != nil {
		return err
	}
	return agbin.WriteYaml(cmd.OutputPath, f)
}

func (cmd *CreateCsvCmd) Run(globals *Globals) error {
	f, err := agbin.ParseBINFile(cmd.Path)
	if err != nil {
		return err
	}
	return agbin.WriteCsv(cmd.OutputPath, f)
}

type CLI struct {
	Globals

	Describe DescribeCmd   `cmd:"" help:"Describes a capture .bin file to stdout"`
	Bin      CreateBinCmd  `cmd:"" help:"Create a bin file from a toml capture description"`
	Toml     CreateTomlCmd `cmd:"" help:"Create a toml capture description from a bin file"`
	Yaml     CreateYamlCmd `cmd:"" help:"Create a yaml file from a bin file"`
	Csv      CreateCsvCmd  `cmd:"" help:"Create a csv file (time axis + channels) from a bin file"`
}

func main() {

	cli := CLI{
		Globals: Globals{
			Version: "0.0.1",
		},
	}

	ctx := kong.Parse(&cli,
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

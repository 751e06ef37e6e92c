package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/sugarme/gotch"
	"go.uber.org/zap"
)

// flag variables
var (
	DataPath   string
	ModelPath  string
	ConfigPath string
	Checkpoint string
	ImageName  string
	OptStr     string
	Backbone   string
	Cuda       bool
	Debug      bool
	task       string
	Device     gotch.Device
)

// hyperparameters
var (
	Reduction int     // image resolution reduction times for the prepare task
	LR        float64 // learning rate
	BatchSize int     // batch size
	Epochs    int     // number of training epochs
)

var logger *zap.Logger

func init() {
	flag.StringVar(&DataPath, "input", "./input", "specify input data directory (with images/ and masks/)")
	flag.StringVar(&ModelPath, "model", "", "specify full path to pretrained weight '.ot' file")
	flag.StringVar(&ConfigPath, "config", "", "specify experiment YAML config file")
	flag.StringVar(&Checkpoint, "checkpoint", "./checkpoint", "specify checkpoint directory")
	flag.StringVar(&ImageName, "name", "", "specify image file name for the visualize task")
	flag.BoolVar(&Cuda, "cuda", false, "specify whether using CUDA or not")
	flag.BoolVar(&Debug, "debug", false, "specify whether to track RAM usage per batch")
	flag.StringVar(&task, "task", "train", "specify task to run")
	flag.Float64Var(&LR, "lr", 0.001, "specify learning rate")
	flag.IntVar(&Reduction, "reduction", 4, "specify image resolution reduction times")
	flag.IntVar(&BatchSize, "batch", 16, "specify batch size")
	flag.IntVar(&Epochs, "epochs", 20, "specify number of epochs")
	flag.StringVar(&OptStr, "opt", "SGD", "specify optimizer type")
	flag.StringVar(&Backbone, "backbone", "vgg16", "specify encoder backbone (vgg16|resnet34)")
}

func main() {
	flag.Parse()

	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	DataPath = absPath(DataPath)
	if ModelPath != "" {
		ModelPath = absPath(ModelPath)
	}

	Device = gotch.CPU
	if Cuda {
		Device = gotch.NewCuda().CudaIfAvailable()
	}

	cfg, err := LoadConfig(ConfigPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("task", task),
		zap.String("input", DataPath),
		zap.String("backbone", Backbone),
		zap.Bool("cuda", Cuda))

	switch task {
	case "train":
		runTrain(cfg)
	case "stats":
		runStats()
	case "eda":
		runEDA(cfg)
	case "prepare":
		runPrepare()
	case "visualize":
		runVisualize(cfg)
	default:
		logger.Fatal("unknown task", zap.String("task", task))
	}
}

// helper to get absolute file path
func absPath(p string) string {
	fullpath, err := filepath.Abs(p)
	if err != nil {
		log.Fatal(err)
	}
	return fullpath
}

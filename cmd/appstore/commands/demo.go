package commands

import "github.com/slok/appstore/internal/model"

func demoCatalog() model.Catalog {
	return model.Catalog{
		{Name: "chatbot-llm", Category: model.CategoryGenerativeAI, Kind: "gradio", Path: "demo/chatbot-llm", MainFile: "gradio_app.py", SizeBytes: 24 << 10, HasRequirements: true, HasReadme: true},
		{Name: "sales-dashboard", Category: model.CategoryDataScience, Kind: "streamlit", Path: "demo/sales-dashboard", MainFile: "streamlit_app.py", SizeBytes: 310 << 10, HasRequirements: true, HasReadme: true},
		{Name: "digit-classifier", Category: model.CategoryMachineLearning, Kind: "python", Path: "demo/digit-classifier", MainFile: "main.py", SizeBytes: 2 << 20, HasRequirements: true},
		{Name: "yolo-detector", Category: model.CategoryComputerVision, Kind: "python", Path: "demo/yolo-detector", MainFile: "run.py", SizeBytes: 48 << 20, HasRequirements: true, HasReadme: true},
		{Name: "sentiment-bert", Category: model.CategoryNaturalLanguageProcessing, Kind: "jupyter", Path: "demo/sentiment-bert", MainFile: "sentiment.ipynb", SizeBytes: 1 << 20},
		{Name: "portfolio-site", Category: model.CategoryWebDevelopment, Kind: "flask", Path: "demo/portfolio-site", MainFile: "app.py", SizeBytes: 96 << 10, HasRequirements: true},
	}
}

func demoDocs() map[string]string {
	return map[string]string{
		"chatbot-llm":     "# Chatbot LLM\n\nA small chat interface over a local language model.\n",
		"sales-dashboard": "# Sales dashboard\n\nInteractive sales analytics with **pandas** and **plotly**.\n",
		"yolo-detector":   "# YOLO detector\n\nReal time object detection on webcam or video files.\n",
	}
}
